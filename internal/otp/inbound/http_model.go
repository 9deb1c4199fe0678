package inbound

type GenerateRequest struct {
	Key string `json:"key"`
}

type GenerateResponse struct {
	Code             string `json:"code"`
	ExpiresInSeconds int64  `json:"expires_in_seconds"`
}

func (GenerateResponse) Message() string {
	return "A one-time code has been issued."
}

type VerifyRequest struct {
	Key  string `json:"key"`
	Code string `json:"code"`
}

type VerifyResponse struct {
	Valid bool `json:"valid"`
}

func (VerifyResponse) Message() string {
	return "Verification has been processed."
}
