package api_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-stocks-api/internal/agent/api"
)

func TestClient_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":true,"message":"No entry for symbol in stocks database"}`))
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL+"/", false).Latest("ZZZZ")

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.Status)
	require.Equal(t, "No entry for symbol in stocks database", apiErr.Message)
}

func TestClient_PlainErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL, false).Symbols("")

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "bad gateway", apiErr.Message)
}

// Без диапазона сервер отдаёт объект, клиент возвращает срез из одного элемента
func TestClient_AuthedSingleObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stocks/authed/AAL", r.URL.Path)
		require.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"symbol":"AAL","open":1.5,"high":2,"low":1,"close":1.75,"volumes":10}`))
	}))
	defer srv.Close()

	quotes, err := api.NewClient(srv.URL, false).Authed("AAL", "", "", "tok")
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	require.Equal(t, "1.75", quotes[0].Close.String())
}

func TestClient_TLSVerification(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	// самоподписанный сертификат без --insecure не принимается
	_, err := api.NewClient(srv.URL, false).Symbols("")
	require.Error(t, err)

	_, err = api.NewClient(srv.URL, true).Symbols("")
	require.NoError(t, err)
}
