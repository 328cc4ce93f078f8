package types

import (
	"time"
)

// SignerRole is one of the four signature slots on a generated contract.
type SignerRole string

const (
	RoleBuyer    = SignerRole("buyer")
	RoleSeller   = SignerRole("seller")
	RoleWitness1 = SignerRole("witness1")
	RoleWitness2 = SignerRole("witness2")
)

// SignerRoles returns all roles in the order their parts appear in a
// contract submission.
func SignerRoles() []SignerRole {
	return []SignerRole{RoleBuyer, RoleSeller, RoleWitness1, RoleWitness2}
}

func (r SignerRole) String() string {
	return string(r)
}

func (r SignerRole) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleWitness1, RoleWitness2:
		return true
	}
	return false
}

// wireName is the backend's name for the role.
func (r SignerRole) wireName() string {
	switch r {
	case RoleBuyer:
		return "cliente"
	case RoleSeller:
		return "vendedor"
	case RoleWitness1:
		return "testemunha1"
	case RoleWitness2:
		return "testemunha2"
	}
	return ""
}

// FormField returns the multipart field name for the role's signature part.
func (r SignerRole) FormField() string {
	return "assinatura_" + r.wireName()
}

// FileName returns the file name the backend expects for the role's PNG part.
func (r SignerRole) FileName() string {
	switch r {
	case RoleWitness1:
		return "ass_test1.png"
	case RoleWitness2:
		return "ass_test2.png"
	}
	return "ass_" + r.wireName() + ".png"
}

// Client is the backend's client record, tagged with the identifier it was
// queried by. It is persisted wholesale to the session store and never
// partially mutated.
type Client struct {
	ID            string    `json:"id"`
	BuyerName     string    `json:"nome_comprador"`
	CPF           string    `json:"cpf"`
	RG            string    `json:"rg"`
	Street        string    `json:"endereco"`
	Number        string    `json:"numero"`
	City          string    `json:"cidade"`
	CreditLimit   string    `json:"limite_credito"`
	BranchName    string    `json:"nome_filial"`
	BranchCNPJ    string    `json:"cnpj_filial"`
	BranchAddress string    `json:"endereco_filial"`
	SigningPlace  string    `json:"local_assinatura"`
	LookedUpAt    time.Time `json:"consultado_em"`
}

// Attachment is one supporting document, held in memory until submission.
type Attachment struct {
	FileName string
	MimeType string
	Data     []byte
}

// ContractLocation points at the rendered contract on the backend.
type ContractLocation struct {
	URL string `json:"contrato_url"`
}
