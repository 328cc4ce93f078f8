package responses

type BaseResponse struct {
	ErrorMessage string      `json:"error_message,omitempty"`
	Result       interface{} `json:"result"`
}

// SubmitContractResponse carries the rendered contract's location plus the
// local path of its hand-off QR code, when one was written.
type SubmitContractResponse struct {
	ContractURL string `json:"contrato_url"`
	QrPath      string `json:"qr_path,omitempty"`
}

// SignatureStatusResponse reports which roles already signed.
type SignatureStatusResponse struct {
	Signatures map[string]bool `json:"signatures"`
	ActiveRole string          `json:"active_role,omitempty"`
}
