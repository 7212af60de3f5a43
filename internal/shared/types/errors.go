package types

import "errors"

// Categorias de erro expostas pelo pipeline de relatórios.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrUpstream     = errors.New("upstream failure")
	ErrUnauthorized = errors.New("unauthorized")

	ErrSchedulerStarted = errors.New("scheduler already started")
)

// StepError identifica a etapa do pipeline que falhou. A mensagem é a do
// erro original, sem prefixo.
type StepError struct {
	Step string
	Kind error
	Err  error
}

func (e *StepError) Error() string {
	return e.Err.Error()
}

func (e *StepError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewStepError cria um StepError para a etapa informada.
func NewStepError(step string, kind, err error) *StepError {
	return &StepError{Step: step, Kind: kind, Err: err}
}

// KindOf devolve o nome da categoria de um erro ("validation", "not_found", ...).
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "upstream"
	}
}
