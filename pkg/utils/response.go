package utils

// ResponseData is the envelope for every REST response. Status drives the
// HTTP status code but is not serialized into the JSON body.
type ResponseData struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}

// PanicIfNeeded panics with the given error so the recovery middleware can
// translate it into a JSON error response.
func PanicIfNeeded(err error) {
	if err != nil {
		panic(err)
	}
}
