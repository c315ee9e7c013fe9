package error

import "net/http"

// AdapterError marks a failure inside a channel adapter's normalization
// pipeline. The webhook layer logs it but still answers 200 to the provider.
type AdapterError string

func (err AdapterError) Error() string {
	return string(err)
}

func (err AdapterError) ErrCode() string {
	return "ADAPTER_ERROR"
}

func (err AdapterError) StatusCode() int {
	return http.StatusInternalServerError
}
