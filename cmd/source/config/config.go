package config

import "time"

// Config holds application configuration.
type Config struct {
	// APIKey authenticates Printful API calls. Mandatory for any live call.
	APIKey      string        `env:"PRINTFUL_API_KEY"`
	DatabaseURL string        `env:"DATABASE_URL"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"10s"`
	// RunOnStart triggers one sync right after startup.
	RunOnStart bool `env:"RUN_ON_START" envDefault:"false"`

	Source   Source
	RabbitMQ RabbitMQ
}

// Source holds catalog ingestion configuration.
// Defaults mirror the Printful source plugin defaults.
type Source struct {
	TypeName                 string   `env:"TYPE_NAME" envDefault:"Printful"`
	ObjectTypes              []string `env:"OBJECT_TYPES" envSeparator:"," envDefault:"SyncProduct,WarehouseProduct,Country,TaxRate"`
	PaginationLimit          int      `env:"PAGINATION_LIMIT" envDefault:"20"`
	DownloadFiles            bool     `env:"DOWNLOAD_FILES" envDefault:"false"`
	DownloadProductThumbnail bool     `env:"DOWNLOAD_PRODUCT_THUMBNAIL" envDefault:"true"`
	DownloadProductImages    bool     `env:"DOWNLOAD_PRODUCT_IMAGES" envDefault:"false"`
	ImageDirectory           string   `env:"IMAGE_DIRECTORY" envDefault:"printful_images"`
}

// RabbitMQ holds RabbitMQ configuration.
type RabbitMQ struct {
	URL      string `env:"RABBITMQ_URL"`
	Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"pfs-ex"`
	Queue    string `env:"RABBITMQ_QUEUE" envDefault:"printful-source.commands"`
}
