package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lojascometa/contract-terminal/backendapi"
	cwf "github.com/lojascometa/contract-terminal/fsm/state_machines/contract_workflow_fsm"
	"github.com/lojascometa/contract-terminal/qr"
	"github.com/lojascometa/contract-terminal/terminal/modules/state"
	clientrepo "github.com/lojascometa/contract-terminal/terminal/repositories/client"
	"github.com/lojascometa/contract-terminal/terminal/services/attachment"
	"github.com/lojascometa/contract-terminal/terminal/services/contract"
	"github.com/lojascometa/contract-terminal/terminal/services/lookup"
	"github.com/lojascometa/contract-terminal/terminal/services/signature"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	req := require.New(t)
	req.NoError(png.Encode(&buf, img))
	return buf.Bytes()
}

type testBackend struct {
	server      *httptest.Server
	submissions int
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()

	b := &testBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc("/clientes/", func(w http.ResponseWriter, r *http.Request) {
		id := filepath.Base(r.URL.Path)
		if id == "99999" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Cliente não encontrado"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"nome_comprador": "Maria da Silva"})
	})
	mux.HandleFunc("/gerar-contrato", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.submissions++
		_ = json.NewEncoder(w).Encode(map[string]string{
			"contrato_url": "/contratos/contrato_" + r.FormValue("cliente_id") + ".pdf",
		})
	})
	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

type testEnv struct {
	state    state.State
	repo     clientrepo.ClientRepo
	backend  *testBackend
	workflow *BaseWorkflowService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	req := require.New(t)

	stg, err := state.NewLevelDBState(filepath.Join(t.TempDir(), "terminal_state"))
	req.NoError(err)
	t.Cleanup(func() { _ = stg.Close() })

	return newTestEnvWithState(t, stg)
}

func newTestEnvWithState(t *testing.T, stg state.State) *testEnv {
	t.Helper()
	req := require.New(t)

	backend := newTestBackend(t)
	api := backendapi.NewClient(backend.server.URL, 0)
	repo := clientrepo.NewClientRepo(stg)

	svc, err := NewWorkflowService(
		stg,
		repo,
		lookup.NewLookupService(api, repo),
		attachment.NewCollector(repo, t.TempDir()),
		signature.NewCapture(signature.DefaultPadWidth, signature.DefaultPadHeight),
		contract.NewAssemblerService(api),
		qr.NewProcessor(),
		t.TempDir(),
	)
	req.NoError(err)

	return &testEnv{state: stg, repo: repo, backend: backend, workflow: svc}
}

func signBuyer(t *testing.T, svc *BaseWorkflowService) {
	t.Helper()
	req := require.New(t)

	req.NoError(svc.OpenSignature(types.RoleBuyer))
	req.NoError(svc.DrawSignature(signature.Stroke{{X: 10, Y: 10}, {X: 60, Y: 40}}))
	img, err := svc.ConfirmSignature()
	req.NoError(err)
	req.NotEmpty(img)
}

func TestWorkflowHappyPath(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	ctx := context.Background()

	client, err := env.workflow.LookupClient(ctx, "12345")
	req.NoError(err)
	req.Equal("12345", client.ID)
	req.Equal(cwf.StateClientLoaded, env.workflow.instance.State())

	doc := pngBytes(t)
	req.NoError(env.workflow.AddAttachments(
		types.Attachment{FileName: "rg.png", Data: doc},
		types.Attachment{FileName: "comprovante.png", Data: doc},
	))
	req.Equal(cwf.StateAttachmentsPending, env.workflow.instance.State())
	req.Len(env.workflow.AttachmentPreviews(), 2)

	req.NoError(env.workflow.ConfirmAttachments())
	req.Equal(cwf.StateAttachmentsConfirmed, env.workflow.instance.State())

	status, err := env.workflow.Status()
	req.NoError(err)
	req.True(status.AttachmentsConfirmed)
	req.True(status.ContractEnabled)

	signBuyer(t, env.workflow)

	location, qrPath, err := env.workflow.SubmitContract(ctx)
	req.NoError(err)
	req.Equal("/contratos/contrato_12345.pdf", location.URL)
	req.NotEmpty(qrPath)
	req.FileExists(qrPath)
	req.Equal(1, env.backend.submissions)
	req.Equal(cwf.StateContractSubmitted, env.workflow.instance.State())

	// Post-submission the per-client artifacts are gone.
	confirmed, err := env.repo.AttachmentsConfirmed("12345")
	req.NoError(err)
	req.False(confirmed)
	status, err = env.workflow.Status()
	req.NoError(err)
	req.Zero(status.AttachmentCount)
	req.False(status.Signatures[types.RoleBuyer])
}

func TestWorkflowSubmitWithBuyerOnly(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.workflow.LookupClient(ctx, "12345")
	req.NoError(err)
	req.NoError(env.workflow.AddAttachments(types.Attachment{FileName: "rg.png", Data: pngBytes(t)}))
	req.NoError(env.workflow.ConfirmAttachments())

	signBuyer(t, env.workflow)

	// Seller opens the pad but confirms with zero ink: a cancellation,
	// not a blocker.
	req.NoError(env.workflow.OpenSignature(types.RoleSeller))
	img, err := env.workflow.ConfirmSignature()
	req.NoError(err)
	req.Nil(img)

	location, _, err := env.workflow.SubmitContract(ctx)
	req.NoError(err)
	req.NotEmpty(location.URL)
}

func TestWorkflowFailedLookupClearsScope(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.workflow.LookupClient(ctx, "12345")
	req.NoError(err)
	req.NoError(env.workflow.AddAttachments(types.Attachment{FileName: "rg.png", Data: pngBytes(t)}))
	req.NoError(env.workflow.ConfirmAttachments())

	_, err = env.workflow.LookupClient(ctx, "99999")
	var notFound *types.NotFoundError
	req.ErrorAs(err, &notFound)
	req.Equal(cwf.StateNoClient, env.workflow.instance.State())

	client, err := env.workflow.Client()
	req.NoError(err)
	req.Nil(client)

	// The earlier client's confirmation must not survive the new lookup.
	confirmed, err := env.repo.AttachmentsConfirmed("12345")
	req.NoError(err)
	req.False(confirmed)

	status, err := env.workflow.Status()
	req.NoError(err)
	req.Zero(status.AttachmentCount)
	req.False(status.ContractEnabled)
}

func TestWorkflowGating(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	ctx := context.Background()

	var validation *types.ValidationError

	err := env.workflow.AddAttachments(types.Attachment{FileName: "rg.png", Data: pngBytes(t)})
	req.ErrorAs(err, &validation)
	req.ErrorAs(env.workflow.ConfirmAttachments(), &validation)
	req.ErrorAs(env.workflow.OpenSignature(types.RoleBuyer), &validation)

	_, _, err = env.workflow.SubmitContract(ctx)
	req.ErrorAs(err, &validation)

	_, err = env.workflow.LookupClient(ctx, "12345")
	req.NoError(err)

	// Client loaded, but nothing pending to confirm or submit yet.
	req.ErrorAs(env.workflow.ConfirmAttachments(), &validation)
	_, _, err = env.workflow.SubmitContract(ctx)
	req.ErrorAs(err, &validation)

	req.NoError(env.workflow.AddAttachments(types.Attachment{FileName: "rg.png", Data: pngBytes(t)}))
	_, _, err = env.workflow.SubmitContract(ctx)
	req.ErrorAs(err, &validation)
}

func TestWorkflowSubmitRequiresBuyerSignature(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.workflow.LookupClient(ctx, "12345")
	req.NoError(err)
	req.NoError(env.workflow.AddAttachments(types.Attachment{FileName: "rg.png", Data: pngBytes(t)}))
	req.NoError(env.workflow.ConfirmAttachments())

	_, _, err = env.workflow.SubmitContract(ctx)
	var validation *types.ValidationError
	req.ErrorAs(err, &validation)
	req.Equal(types.BuyerSignatureRequired, validation.Error())
	req.Zero(env.backend.submissions)
}

func TestWorkflowRestorePendingDegradesToLoaded(t *testing.T) {
	req := require.New(t)

	stg, err := state.NewLevelDBState(filepath.Join(t.TempDir(), "terminal_state"))
	req.NoError(err)
	t.Cleanup(func() { _ = stg.Close() })

	env := newTestEnvWithState(t, stg)
	ctx := context.Background()

	_, err = env.workflow.LookupClient(ctx, "12345")
	req.NoError(err)
	req.NoError(env.workflow.AddAttachments(types.Attachment{FileName: "rg.png", Data: pngBytes(t)}))
	req.Equal(cwf.StateAttachmentsPending, env.workflow.instance.State())

	// A new service over the same store models a terminal restart: the
	// pending files lived only in memory.
	restarted := newTestEnvWithState(t, stg)
	req.Equal(cwf.StateClientLoaded, restarted.workflow.instance.State())
	req.Equal("12345", restarted.workflow.instance.ClientID())

	client, err := restarted.workflow.Client()
	req.NoError(err)
	req.Equal("12345", client.ID)
}

func TestWorkflowRestoreMismatchedClientStartsOver(t *testing.T) {
	req := require.New(t)

	stg, err := state.NewLevelDBState(filepath.Join(t.TempDir(), "terminal_state"))
	req.NoError(err)
	t.Cleanup(func() { _ = stg.Close() })

	env := newTestEnvWithState(t, stg)
	ctx := context.Background()

	_, err = env.workflow.LookupClient(ctx, "12345")
	req.NoError(err)

	// Simulate a store whose client record vanished behind the dump's back.
	req.NoError(stg.Delete(clientrepo.SelectedClientKey))

	restarted := newTestEnvWithState(t, stg)
	req.Equal(cwf.StateNoClient, restarted.workflow.instance.State())
	req.Empty(restarted.workflow.instance.ClientID())
}
