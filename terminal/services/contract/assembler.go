package contract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/lojascometa/contract-terminal/backendapi"
	"github.com/lojascometa/contract-terminal/common"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

const attachmentsFormField = "anexos"

// Submission is the transient aggregate sent to the backend. It exists for
// the duration of one request and is discarded afterwards, success or not.
type Submission struct {
	ClientID    string
	ContentType string
	Body        *bytes.Buffer
}

// AssemblerService turns in-memory artifacts into one multipart request and
// interprets the backend's answer.
type AssemblerService interface {
	Build(client *types.Client, signatures map[types.SignerRole][]byte, attachments []types.Attachment) (*Submission, error)
	Submit(ctx context.Context, submission *Submission) (*types.ContractLocation, error)
}

type BaseAssemblerService struct {
	backend *backendapi.Client
	logger  *slog.Logger
}

func NewAssemblerService(backend *backendapi.Client) *BaseAssemblerService {
	return &BaseAssemblerService{
		backend: backend,
		logger:  common.NewLogger("contract"),
	}
}

// Build assembles the multipart payload: the client identifier, each present
// signature named by role, and each attachment renamed by its position so
// original file names can never collide. The buyer's signature is the only
// client-side precondition.
func (s *BaseAssemblerService) Build(client *types.Client, signatures map[types.SignerRole][]byte, attachments []types.Attachment) (*Submission, error) {
	if client == nil || client.ID == "" {
		return nil, &types.ValidationError{Message: types.DefaultNotFoundMessage}
	}
	if len(signatures[types.RoleBuyer]) == 0 {
		return nil, &types.ValidationError{Message: types.BuyerSignatureRequired}
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("cliente_id", client.ID); err != nil {
		return nil, fmt.Errorf("failed to write client id part: %w", err)
	}

	for _, role := range types.SignerRoles() {
		img := signatures[role]
		if len(img) == 0 {
			continue
		}
		if err := writeImagePart(writer, role.FormField(), role.FileName(), "image/png", img); err != nil {
			return nil, fmt.Errorf("failed to write %s signature part: %w", role, err)
		}
	}

	for i, file := range attachments {
		name := fmt.Sprintf("anexo_%d.png", i+1)
		if err := writeImagePart(writer, attachmentsFormField, name, file.MimeType, file.Data); err != nil {
			return nil, fmt.Errorf("failed to write attachment part %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart payload: %w", err)
	}

	return &Submission{
		ClientID:    client.ID,
		ContentType: writer.FormDataContentType(),
		Body:        body,
	}, nil
}

// Submit sends one assembled payload and returns the contract location.
func (s *BaseAssemblerService) Submit(ctx context.Context, submission *Submission) (*types.ContractLocation, error) {
	location, err := s.backend.GenerateContract(ctx, submission.Body, submission.ContentType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("contract generated", "client_id", submission.ClientID, "contract_url", location.URL)
	return location, nil
}

func writeImagePart(writer *multipart.Writer, field, fileName, mimeType string, data []byte) error {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(field), escapeQuotes(fileName)))
	header.Set("Content-Type", mimeType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}
