package telegram

import "encoding/json"

// Envelope is the discriminated {ok, result|error} wrapper every Bot API
// response uses. OK true means Result holds the raw success payload, to be
// decoded against the caller's target shape; OK false means the call was
// rejected and the error fields describe why.
type Envelope struct {
	OK          bool
	Result      json.RawMessage
	Description string
	ErrorCode   int
	Parameters  *ResponseParameters

	method string
}

// wireEnvelope mirrors the JSON shape. OK is a pointer so a body without the
// discriminator is rejected as malformed instead of being read as ok:false.
type wireEnvelope struct {
	OK          *bool               `json:"ok"`
	Result      json.RawMessage     `json:"result"`
	Description string              `json:"description"`
	ErrorCode   int                 `json:"error_code"`
	Parameters  *ResponseParameters `json:"parameters"`
}

// decodeEnvelope parses a raw response body into an Envelope. The result
// payload stays raw: it is decoded at most once more, into the target shape,
// with no intermediate re-encoding.
func decodeEnvelope(method string, data []byte) (*Envelope, error) {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &MalformedResponseError{Method: method, Err: err}
	}
	if w.OK == nil {
		return nil, &MalformedResponseError{Method: method, Err: errMissingOK}
	}
	if *w.OK && len(w.Result) == 0 {
		return nil, &MalformedResponseError{Method: method, Err: errMissingResult}
	}
	return &Envelope{
		OK:          *w.OK,
		Result:      w.Result,
		Description: w.Description,
		ErrorCode:   w.ErrorCode,
		Parameters:  w.Parameters,
		method:      method,
	}, nil
}

// Err returns the rejection as an *APIError when OK is false, nil otherwise.
func (e *Envelope) Err() error {
	if e.OK {
		return nil
	}
	apiErr := &APIError{Code: e.ErrorCode, Description: e.Description}
	if e.Parameters != nil {
		apiErr.RetryAfter = e.Parameters.RetryAfter
		apiErr.MigrateToChatID = e.Parameters.MigrateToChatID
	}
	return apiErr
}

// DecodeResult decodes the success payload into v. On an ok:false envelope it
// returns the rejection instead; check OK (or Err) first, the way every typed
// wrapper does.
func (e *Envelope) DecodeResult(v any) error {
	if !e.OK {
		return e.Err()
	}
	if err := json.Unmarshal(e.Result, v); err != nil {
		return &DecodeError{Method: e.method, Err: err}
	}
	return nil
}

// decodeResult is the generic form of Envelope.DecodeResult used by the typed
// wrappers.
func decodeResult[T any](env *Envelope) (*T, error) {
	var v T
	if err := env.DecodeResult(&v); err != nil {
		return nil, err
	}
	return &v, nil
}
