package backendapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lojascometa/contract-terminal/backendapi"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

func TestClient_GetClient_TagsQueriedID(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/clientes/12345", r.URL.Path)
		// The backend record omits the identifier.
		_ = json.NewEncoder(w).Encode(map[string]string{
			"nome_comprador": "Ana",
			"cpf":            "111",
			"limite_credito": "500.00",
		})
	}))
	defer server.Close()

	client := backendapi.NewClient(server.URL, time.Second)

	got, err := client.GetClient(context.Background(), "12345")
	req.NoError(err)
	req.Equal("12345", got.ID)
	req.Equal("Ana", got.BuyerName)
	req.False(got.LookedUpAt.IsZero())
}

func TestClient_GetClient_NotFound(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Cliente 99999 não existe"})
	}))
	defer server.Close()

	client := backendapi.NewClient(server.URL, time.Second)

	_, err := client.GetClient(context.Background(), "99999")

	var notFound *types.NotFoundError
	req.True(errors.As(err, &notFound))
	req.Equal("Cliente 99999 não existe", notFound.Error())
}

func TestClient_GetClient_NotFoundWithoutDetail(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := backendapi.NewClient(server.URL, time.Second)

	_, err := client.GetClient(context.Background(), "99999")

	var notFound *types.NotFoundError
	req.True(errors.As(err, &notFound))
	req.Equal(types.DefaultNotFoundMessage, notFound.Error())
}

func TestClient_GetClient_CancelledContext(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := backendapi.NewClient(server.URL, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetClient(ctx, "12345")
	req.ErrorIs(err, context.Canceled)
}

func TestClient_GenerateContract(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/gerar-contrato", r.URL.Path)
		req.Equal(http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]string{"contrato_url": "/contratos_gerados/contrato_1.pdf"})
	}))
	defer server.Close()

	client := backendapi.NewClient(server.URL, time.Second)

	location, err := client.GenerateContract(context.Background(), nil, "multipart/form-data")
	req.NoError(err)
	req.Equal("/contratos_gerados/contrato_1.pdf", location.URL)
}

func TestClient_GenerateContract_MissingLocation(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := backendapi.NewClient(server.URL, time.Second)

	_, err := client.GenerateContract(context.Background(), nil, "multipart/form-data")

	var subErr *types.SubmissionError
	req.True(errors.As(err, &subErr))
	req.Equal(types.MissingLocationMessage, subErr.Error())
}

func TestClient_GenerateContract_BackendRejection(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "assinatura ilegível"})
	}))
	defer server.Close()

	client := backendapi.NewClient(server.URL, time.Second)

	_, err := client.GenerateContract(context.Background(), nil, "multipart/form-data")

	var subErr *types.SubmissionError
	req.True(errors.As(err, &subErr))
	req.Equal("assinatura ilegível", subErr.Error())
}

func TestClient_ListContracts(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req.Equal("/contratos", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]string{"/contratos_gerados/a.pdf", "/contratos_gerados/b.pdf"})
	}))
	defer server.Close()

	client := backendapi.NewClient(server.URL, time.Second)

	contracts, err := client.ListContracts(context.Background())
	req.NoError(err)
	req.Equal([]string{"/contratos_gerados/a.pdf", "/contratos_gerados/b.pdf"}, contracts)
}

func TestClient_Login(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		req.NoError(json.NewDecoder(r.Body).Decode(&body))
		if body["user"] == "clerk" && body["password"] == "secret" {
			_ = json.NewEncoder(w).Encode(map[string]string{"user": "clerk"})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Credenciais inválidas"})
	}))
	defer server.Close()

	client := backendapi.NewClient(server.URL, time.Second)

	session, err := client.Login(context.Background(), "clerk", "secret")
	req.NoError(err)
	req.NotEmpty(session.Payload)

	_, err = client.Login(context.Background(), "clerk", "wrong")
	var valErr *types.ValidationError
	req.True(errors.As(err, &valErr))
	req.Equal("Credenciais inválidas", valErr.Error())
}
