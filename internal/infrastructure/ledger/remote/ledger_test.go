package remoteledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPullAndPush(t *testing.T) {
	requests := map[string]transferRequest{}
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			var req transferRequest
			json.NewDecoder(r.Body).Decode(&req)
			requests[r.URL.Path] = req
			w.WriteHeader(http.StatusOK)
		},
	))
	defer server.Close()

	ledger := NewLedgerService(server.URL, 5*time.Second)

	if err := ledger.Pull(context.Background(), "0xSeller", 100); err != nil {
		t.Fatal(err)
	}
	if err := ledger.Push(context.Background(), "0xBuyer", 40); err != nil {
		t.Fatal(err)
	}

	pull := requests["/v1/transfers/pull"]
	assert.Equal(t, "0xSeller", pull.From)
	assert.Equal(t, uint64(100), pull.Amount)

	push := requests["/v1/transfers/push"]
	assert.Equal(t, "0xBuyer", push.To)
	assert.Equal(t, uint64(40), push.Amount)
}

func TestTransferFailureIsSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte("insufficient allowance"))
		},
	))
	defer server.Close()

	ledger := NewLedgerService(server.URL, 5*time.Second)

	err := ledger.Pull(context.Background(), "0xSeller", 100)
	assert.ErrorContains(t, err, "insufficient allowance")
}
