package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ZanzyTHEbar/gallery-go/adapters/api"
	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/internal"
)

// Operation names used in errors and logs
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Caller is the part of api.Client the repositories depend on
type Caller interface {
	Call(ctx context.Context, path string, opts *api.CallOptions) (*http.Response, error)
}

// endpoint implements CRUD against one REST collection. Failures carry the
// fixed message for the operation; the server's error body is discarded.
type endpoint[T any, P any] struct {
	caller     Caller
	collection string
	resource   string
	messages   map[string]string
	parse      func([]byte) (T, error)
	parseList  func([]byte) ([]T, error)
	logger     *internal.Logger
}

func (e *endpoint[T, P]) list(ctx context.Context) ([]T, error) {
	body, err := e.do(ctx, OpList, e.collection, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	records, err := e.parseList(body)
	if err != nil {
		return nil, e.invalid(OpList, err)
	}
	return records, nil
}

func (e *endpoint[T, P]) get(ctx context.Context, id int64) (T, error) {
	return e.item(ctx, OpGet, http.MethodGet, id, nil)
}

func (e *endpoint[T, P]) create(ctx context.Context, payload P) (T, error) {
	return e.single(ctx, OpCreate, http.MethodPost, e.collection, payload)
}

func (e *endpoint[T, P]) update(ctx context.Context, id int64, payload P) (T, error) {
	return e.item(ctx, OpUpdate, http.MethodPut, id, payload)
}

func (e *endpoint[T, P]) remove(ctx context.Context, id int64) (T, error) {
	return e.item(ctx, OpDelete, http.MethodDelete, id, nil)
}

// item targets "{collection}/{id}"
func (e *endpoint[T, P]) item(ctx context.Context, op, method string, id int64, payload interface{}) (T, error) {
	path, err := api.ResourcePath(e.collection, id)
	if err != nil {
		var zero T
		return zero, e.transport(op, 0, err)
	}
	return e.single(ctx, op, method, path, payload)
}

// single performs a request answering with one record
func (e *endpoint[T, P]) single(ctx context.Context, op, method, path string, payload interface{}) (T, error) {
	var zero T
	raw, err := e.do(ctx, op, path, method, payload)
	if err != nil {
		return zero, err
	}
	rec, err := e.parse(raw)
	if err != nil {
		return zero, e.invalid(op, err)
	}
	return rec, nil
}

func (e *endpoint[T, P]) do(ctx context.Context, op, path, method string, payload interface{}) ([]byte, error) {
	opts := &api.CallOptions{Method: method}
	if payload != nil {
		reader, err := api.JSONBody(payload)
		if err != nil {
			return nil, e.transport(op, 0, err)
		}
		opts.Body = reader
	}

	resp, err := e.caller.Call(ctx, path, opts)
	if err != nil {
		return nil, e.transport(op, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, e.transport(op, resp.StatusCode, nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, e.transport(op, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}
	return data, nil
}

func (e *endpoint[T, P]) transport(op string, status int, cause error) error {
	err := &models.TransportError{
		Resource:   e.collection,
		Op:         op,
		Message:    e.messages[op],
		StatusCode: status,
		Err:        cause,
	}
	e.logger.Warn(internal.ComponentRepo, "%v", err)
	return err
}

// invalid attaches the operation's fixed message to a schema failure
func (e *endpoint[T, P]) invalid(op string, err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) && verr.Message == "" {
		verr.Message = e.messages[op]
	}
	e.logger.Warn(internal.ComponentRepo, "%s %s: %v", op, e.resource, err)
	return err
}
