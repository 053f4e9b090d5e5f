package inbound

type RequestOTPRequest struct {
	Email string `json:"email"`
}

type RequestOTPResponse struct {
	Reason string `json:"reason"`
	Reused bool   `json:"reused"`
	msg    string
}

func (r RequestOTPResponse) Message() string {
	return r.msg
}

type SubmitOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type SubmitOTPResponse struct {
	Reason string `json:"reason"`
	msg    string
}

func (r SubmitOTPResponse) Message() string {
	return r.msg
}
