package types

// Default user-facing messages, used when the backend supplies no detail.
// These are product strings and stay in the store's language.
const (
	DefaultNotFoundMessage   = "Cliente não encontrado"
	DefaultSubmissionMessage = "Falha ao gerar o contrato no servidor"
	MissingLocationMessage   = "O servidor não retornou uma URL de contrato válida"
	BuyerSignatureRequired   = "A assinatura do cliente é obrigatória"
)

// NotFoundError means a client lookup failed: the client is absent or the
// backend was unreachable.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return DefaultNotFoundMessage
	}
	return e.Message
}

// ValidationError means a client-side precondition failed and the request
// was never sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SubmissionError means the backend rejected a contract submission, or
// returned a success response without a usable contract location.
type SubmissionError struct {
	Message string
}

func (e *SubmissionError) Error() string {
	if e.Message == "" {
		return DefaultSubmissionMessage
	}
	return e.Message
}
