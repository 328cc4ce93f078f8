package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lojascometa/contract-terminal/common"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

const defaultTimeout = 30 * time.Second

// Client is the typed consumer of the retail backend's HTTP surface. All
// failure interpretation for lookups and submissions happens here, so the
// services above deal only with the error taxonomy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     common.NewLogger("backendapi"),
	}
}

// Login authenticates the clerk against the backend. A non-success response
// fails with the backend's detail message when present.
func (c *Client) Login(ctx context.Context, user, password string) (*Session, error) {
	body, err := json.Marshal(map[string]string{"user": user, "password": password})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal login request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.ValidationError{Message: parseDetail(responseBody, "Falha na autenticação")}
	}

	return &Session{Payload: responseBody}, nil
}

// GetClient fetches one client record and tags it with the queried
// identifier; the backend record itself may omit it.
func (c *Client) GetClient(ctx context.Context, id string) (*types.Client, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/clientes/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build client request: %w", err)
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("client lookup failed", "client_id", id, "error", err)
		return nil, &types.NotFoundError{}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.NotFoundError{Message: parseDetail(responseBody, "")}
	}

	var client types.Client
	if err := json.Unmarshal(responseBody, &client); err != nil {
		return nil, fmt.Errorf("failed to unmarshal client: %w", err)
	}

	client.ID = id
	client.LookedUpAt = time.Now().UTC()

	return &client, nil
}

// GenerateContract posts one assembled multipart submission. A success
// response without a contract location is itself a submission error.
func (c *Client) GenerateContract(ctx context.Context, body io.Reader, contentType string) (*types.ContractLocation, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/gerar-contrato", body)
	if err != nil {
		return nil, fmt.Errorf("failed to build contract request: %w", err)
	}
	request.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		c.logger.Warn("contract submission failed", "error", err)
		return nil, &types.SubmissionError{}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &types.SubmissionError{Message: parseDetail(responseBody, "")}
	}

	var location types.ContractLocation
	if err := json.Unmarshal(responseBody, &location); err != nil || location.URL == "" {
		return nil, &types.SubmissionError{Message: types.MissingLocationMessage}
	}

	return &location, nil
}

// ListContracts returns the paths of every rendered contract.
func (c *Client) ListContracts(ctx context.Context) ([]string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contratos", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build contracts request: %w", err)
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to list contracts: status %d", resp.StatusCode)
	}

	var contracts []string
	if err := json.Unmarshal(responseBody, &contracts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contracts: %w", err)
	}
	return contracts, nil
}
