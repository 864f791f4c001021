package extraction

// ManualEntryMessage é exibida quando nenhuma das extrações funcionou.
const ManualEntryMessage = "Erro ao analisar a imagem. Por favor, preencha os dados manualmente."

// Kind identifica a variante de um Outcome.
type Kind string

const (
	KindSingle Kind = "single"
	KindMulti  Kind = "multi"
	KindFailed Kind = "failed"
)

// Outcome é o resultado da análise de uma imagem: SingleOutcome, MultiOutcome ou FailedOutcome.
// A interface é selada; use um type switch sobre os três tipos.
type Outcome interface {
	Kind() Kind
	outcome()
}

// SingleOutcome: uma peça para o formulário de cadastro.
type SingleOutcome struct {
	Item SingleItem
	// FromFallback indica que veio da extração de peça única após falha da extração de nota.
	FromFallback bool
}

// MultiOutcome: nota com mais de uma peça para aprovação em lote.
type MultiOutcome struct {
	Result Result
}

// FailedOutcome: nenhuma extração funcionou; o usuário deve preencher manualmente.
type FailedOutcome struct {
	Message string
	Cause   error
}

func (SingleOutcome) Kind() Kind { return KindSingle }
func (MultiOutcome) Kind() Kind  { return KindMulti }
func (FailedOutcome) Kind() Kind { return KindFailed }

func (SingleOutcome) outcome() {}
func (MultiOutcome) outcome()  {}
func (FailedOutcome) outcome() {}
