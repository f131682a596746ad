// Package http holds the router seam, the server and the JSON envelope writers
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "sprintly/internal/platform/errors"
	"sprintly/internal/platform/logger"
	pnet "sprintly/internal/platform/net"
)

// Envelope is the response body of every endpoint
type Envelope struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// JSON writes v as application/json with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Response is what return style handlers produce
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// Handle adapts a Response returning func to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	env := Envelope{RequestID: pnet.RequestID(r.Context())}
	if err, ok := resp.Body.(error); ok && err != nil {
		var wire perr.Wire
		status, wire = perr.HTTP(err)
		env.Code, env.Error, env.Field = wire.Code, wire.Message, wire.Field

		evt := logger.C(r.Context()).Warn()
		if status >= stdhttp.StatusInternalServerError {
			evt = logger.C(r.Context()).Error()
		}
		evt.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")
	} else {
		env.Data = resp.Body
	}
	env.StatusCode = status
	env.Status = stdhttp.StatusText(status)
	JSON(w, status, env)
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created returns a 201 response
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error returns a response whose status and envelope come from err
func Error(err error) Response { return Response{Body: err} }
