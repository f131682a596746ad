package http

import (
	"net/http"

	"sprintly/internal/platform/net/http/bind"
)

// JSONHandler binds and validates the body into T before calling fn
// fn may return a Response to pick its own status
func JSONHandler[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

// CallHandler calls fn without reading a body
func CallHandler(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return result(fn(r)) })
}

func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}
