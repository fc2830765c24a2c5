package commander_test

import (
	"context"
	"testing"

	"github.com/MichalMitros/printful-source/pkg/v1/commander"
	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	err        error
	routingKey string
	message    []byte
}

func (p *fakePublisher) Publish(_ context.Context, routingKey string, message []byte) error {
	p.routingKey = routingKey
	p.message = message

	return p.err
}

func TestUnitSendSyncCommand(t *testing.T) {
	routingKey := faker.Word()

	tests := map[string]struct {
		objectTypes    []string
		publisherError error
		wantBody       string
		wantErr        error
	}{
		"all configured kinds": {
			wantBody: `{}`,
		},
		"selected kinds": {
			objectTypes: []string{"Country", "TaxRate"},
			wantBody:    `{"objectTypes":["Country","TaxRate"]}`,
		},
		"publisher error": {
			publisherError: assert.AnError,
			wantBody:       `{}`,
			wantErr:        assert.AnError,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			publisher := &fakePublisher{err: tt.publisherError}

			cmndr := commander.NewSyncCommander(publisher, routingKey)
			err := cmndr.SendSyncCommand(context.TODO(), tt.objectTypes)

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")
			assert.Equal(t, routingKey, publisher.routingKey, "should publish to configured routing key")
			assert.JSONEq(t, tt.wantBody, string(publisher.message), "should publish correct command body")
		})
	}
}
