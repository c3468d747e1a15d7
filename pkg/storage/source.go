package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/matst80/laser-finder/pkg/common/jsoncompat"
	"github.com/matst80/laser-finder/pkg/types"
)

// Source loads the raw machine records from the backing store.
type Source interface {
	Fetch(ctx context.Context, limit int) ([]types.RawMachine, error)
}

// ErrStatus wraps non 2xx responses from the machines endpoint.
var ErrStatus = errors.New("unexpected status")

// MachinesResponse is the body of GET /api/machines.
type MachinesResponse struct {
	Data []types.RawMachine `json:"data"`
}

// HTTPSource reads GET {BaseUrl}/api/machines?limit=N.
type HTTPSource struct {
	BaseUrl string
	Client  *http.Client
}

func NewHTTPSource(baseUrl string) *HTTPSource {
	return &HTTPSource{
		BaseUrl: strings.TrimSuffix(baseUrl, "/"),
		Client:  http.DefaultClient,
	}
}

func (s *HTTPSource) endpoint(limit int) (string, error) {
	u, err := url.Parse(s.BaseUrl + "/api/machines")
	if err != nil {
		return "", err
	}
	if limit > 0 {
		q := u.Query()
		q.Set("limit", strconv.Itoa(limit))
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func (s *HTTPSource) Fetch(ctx context.Context, limit int) ([]types.RawMachine, error) {
	endpoint, err := s.endpoint(limit)
	if err != nil {
		return nil, fmt.Errorf("machines endpoint: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch machines: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return nil, fmt.Errorf("fetch machines: %w %d", ErrStatus, res.StatusCode)
	}
	body := MachinesResponse{}
	if err := jsoncompat.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode machines: %w", err)
	}
	if body.Data == nil {
		body.Data = []types.RawMachine{}
	}
	return body.Data, nil
}
