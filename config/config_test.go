package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, 9945, GetInt(ListenPortKey))
	assert.Equal(t, DbTypeBadger, GetString(DbTypeKey))
	assert.Equal(t, 3600, GetInt(TradeTimeoutKey))
	assert.Equal(t, float64(3600), GetTradeTimeout().Seconds())
	assert.Equal(t, float64(15), GetLedgerRequestTimeout().Seconds())
	assert.NotEmpty(t, GetDatadir())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   interface{}
		wantErr bool
	}{
		{"badger db", DbTypeKey, DbTypeBadger, false},
		{"inmemory db", DbTypeKey, DbTypeInMemory, false},
		{"unknown db", DbTypeKey, "redis", true},
		{"positive timeout", TradeTimeoutKey, 60, false},
		{"zero timeout", TradeTimeoutKey, 0, true},
		{"negative timeout", TradeTimeoutKey, -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			previous := vip.Get(tt.key)
			Set(tt.key, tt.value)
			defer Set(tt.key, previous)

			err := validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
