package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/glamstock-api/internal/domain"
	"github.com/jhoicas/glamstock-api/internal/domain/entity"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
)

// ReasonRegistry catálogo inmutable de motivos de transacción, cargado una vez al arrancar.
// Es seguro para uso concurrente porque nunca se modifica después de construido.
type ReasonRegistry struct {
	byID    map[int64]entity.Reason
	byLabel map[string]int64
	ordered []entity.Reason
}

// LoadReasonRegistry lee todos los motivos del repositorio.
func LoadReasonRegistry(ctx context.Context, repo repository.ReasonRepository) (*ReasonRegistry, error) {
	reasons, err := repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar motivos: %w", err)
	}
	return NewReasonRegistry(reasons), nil
}

// NewReasonRegistry construye el catálogo. Si dos motivos normalizan a la misma etiqueta gana el de menor id.
func NewReasonRegistry(reasons []entity.Reason) *ReasonRegistry {
	ordered := make([]entity.Reason, len(reasons))
	copy(ordered, reasons)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	r := &ReasonRegistry{
		byID:    make(map[int64]entity.Reason, len(ordered)),
		byLabel: make(map[string]int64, len(ordered)),
		ordered: ordered,
	}
	for _, reason := range ordered {
		r.byID[reason.ID] = reason
		key := normalizeLabel(reason.Label)
		if _, ok := r.byLabel[key]; !ok {
			r.byLabel[key] = reason.ID
		}
	}
	return r
}

// Resolve devuelve el id del motivo cuya etiqueta coincide ignorando mayúsculas, tildes y separadores.
func (r *ReasonRegistry) Resolve(label string) (int64, error) {
	key := normalizeLabel(label)
	if key == "" {
		return 0, fmt.Errorf("%w: etiqueta vacía", domain.ErrUnknownReason)
	}
	id, ok := r.byLabel[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownReason, label)
	}
	return id, nil
}

// Validate verifica que el id exista en el catálogo.
func (r *ReasonRegistry) Validate(id int64) error {
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("%w: id %d", domain.ErrUnknownReason, id)
	}
	return nil
}

// Labels etiquetas en orden alfabético (para mensajes de validación).
func (r *ReasonRegistry) Labels() []string {
	labels := make([]string, 0, len(r.ordered))
	for _, reason := range r.ordered {
		labels = append(labels, reason.Label)
	}
	sort.Strings(labels)
	return labels
}

// Reasons copia del catálogo en orden de id.
func (r *ReasonRegistry) Reasons() []entity.Reason {
	out := make([]entity.Reason, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// normalizeLabel: "Uso Interno", "uso_interno" y "USO-INTERNO" producen "uso_interno";
// "Daño" y "dano" producen "dano".
func normalizeLabel(label string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, strings.TrimSpace(label))
	if err != nil {
		stripped = strings.TrimSpace(label)
	}
	folded := cases.Fold().String(stripped)
	parts := strings.FieldsFunc(folded, func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})
	return strings.Join(parts, "_")
}
