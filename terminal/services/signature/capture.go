package signature

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/lojascometa/contract-terminal/common"
	"github.com/lojascometa/contract-terminal/fsm/fsm"
	"github.com/lojascometa/contract-terminal/terminal/types"
)

const (
	captureFSMName = "signature_capture_fsm"

	StatePadClosed  = fsm.State("state_pad_closed")
	StatePadEditing = fsm.State("state_pad_editing")

	EventPadOpen    = fsm.Event("event_pad_open")
	EventPadConfirm = fsm.Event("event_pad_confirm")
	EventPadClose   = fsm.Event("event_pad_close")
)

// Capture manages one drawing surface shared by all signer roles. At most
// one role is active for editing at a time; confirmed images live in memory
// until submission or reset.
type Capture struct {
	mu sync.Mutex

	machine    *fsm.FSM
	activeRole types.SignerRole
	pad        *Pad
	images     map[types.SignerRole][]byte

	padWidth  int
	padHeight int

	logger *slog.Logger
}

func NewCapture(padWidth, padHeight int) *Capture {
	c := &Capture{
		images:    make(map[types.SignerRole][]byte),
		padWidth:  padWidth,
		padHeight: padHeight,
		logger:    common.NewLogger("signature"),
	}

	c.machine = fsm.MustNewFSM(
		captureFSMName,
		StatePadClosed,
		[]fsm.EventDesc{
			// Opening while editing switches signers, discarding the
			// in-progress drawing.
			{Name: EventPadOpen, SrcState: []fsm.State{StatePadClosed, StatePadEditing}, DstState: StatePadEditing},
			{Name: EventPadConfirm, SrcState: []fsm.State{StatePadEditing}, DstState: StatePadClosed},
			{Name: EventPadClose, SrcState: []fsm.State{StatePadEditing}, DstState: StatePadClosed},
		},
		nil,
	)

	return c
}

// Open puts the surface into editing for the given role. Any in-progress
// drawing for a different role is discarded; the roles' stored signatures
// are untouched.
func (c *Capture) Open(role types.SignerRole) error {
	if !role.IsValid() {
		return &types.ValidationError{Message: fmt.Sprintf("Assinante desconhecido: %s", role)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.machine.Do(EventPadOpen); err != nil {
		return err
	}

	c.activeRole = role
	c.pad = NewPad(c.padWidth, c.padHeight)
	return nil
}

// Draw records a stroke on the active surface.
func (c *Capture) Draw(stroke Stroke) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine.State() != StatePadEditing {
		return &types.ValidationError{Message: "Nenhuma assinatura em andamento"}
	}

	c.pad.Draw(stroke)
	return nil
}

// Clear erases the active surface without changing state.
func (c *Capture) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine.State() != StatePadEditing {
		return &types.ValidationError{Message: "Nenhuma assinatura em andamento"}
	}

	c.pad.Clear()
	return nil
}

// Confirm stores the surface as the active role's signature and closes the
// pad. An empty surface is treated as a cancellation: no image is stored and
// the role's existing signature, if any, remains unchanged.
func (c *Capture) Confirm() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine.State() != StatePadEditing {
		return nil, &types.ValidationError{Message: "Nenhuma assinatura em andamento"}
	}

	if c.pad.IsEmpty() {
		// Zero ink: treated as a cancellation.
		c.close()
		return nil, nil
	}

	img, err := c.pad.Render()
	if err != nil {
		// The stored signatures stay as they were.
		return nil, err
	}

	c.images[c.activeRole] = img
	c.logger.Debug("signature confirmed", "role", c.activeRole.String())

	_, _ = c.machine.Do(EventPadConfirm)
	c.activeRole = ""
	c.pad = nil
	return img, nil
}

// Close cancels the in-progress drawing without altering stored signatures.
func (c *Capture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.machine.State() != StatePadEditing {
		return nil
	}
	c.close()
	return nil
}

func (c *Capture) close() {
	if c.machine.State() == StatePadEditing {
		_, _ = c.machine.Do(EventPadClose)
	}
	c.activeRole = ""
	c.pad = nil
}

// ActiveRole returns the role being edited, or empty when the pad is closed.
func (c *Capture) ActiveRole() types.SignerRole {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeRole
}

// Signature returns the stored image for a role.
func (c *Capture) Signature(role types.SignerRole) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	img, ok := c.images[role]
	return img, ok
}

// Signatures returns a copy of all stored images.
func (c *Capture) Signatures() map[types.SignerRole][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[types.SignerRole][]byte, len(c.images))
	for role, img := range c.images {
		out[role] = img
	}
	return out
}

// Reset discards the surface and every stored signature. Called when a new
// client supersedes the session and after a successful submission.
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.close()
	c.images = make(map[types.SignerRole][]byte)
}
