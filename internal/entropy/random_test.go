package entropy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSeed_NonZeroPositive(t *testing.T) {
	for i := 0; i < 100; i++ {
		if s := Seed(); s <= 0 {
			t.Fatalf("seed %d is not positive", s)
		}
	}
}

func TestClient_NilFallsBack(t *testing.T) {
	c := NewClient("")
	if c.Enabled() {
		t.Fatal("client without key should be disabled")
	}
	if s := c.Seed(); s <= 0 {
		t.Fatalf("fallback seed %d is not positive", s)
	}
}

func TestClient_Fetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params struct {
				APIKey string `json:"apiKey"`
				N      int    `json:"n"`
			} `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Method != "generateIntegers" || req.Params.APIKey != "k" || req.Params.N != 2 {
			t.Errorf("unexpected request %+v", req)
		}
		w.Write([]byte(`{"jsonrpc":"2.0","result":{"random":{"data":[1,5]}},"id":1}`))
	}))
	defer ts.Close()

	c := NewClient("k")
	c.endpoint = ts.URL
	if got, want := c.Seed(), int64(1<<31|5); got != want {
		t.Fatalf("seed = %d, want %d", got, want)
	}
}

func TestClient_ErrorFallsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":401,"message":"bad key"},"id":1}`))
	}))
	defer ts.Close()

	c := NewClient("k")
	c.endpoint = ts.URL
	if s := c.Seed(); s <= 0 {
		t.Fatalf("fallback seed %d is not positive", s)
	}
}
