package matrix

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/creativeops/briefmatrix/internal/models"
)

// PlanSchemaJSON reflects the MatrixPlan_v1 JSON Schema from the Go types.
// Fields without omitempty are required; unknown properties are rejected;
// the awareness enum comes from the AwarenessLevel type itself.
func PlanSchemaJSON() ([]byte, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := reflector.Reflect(&models.MatrixPlanV1{})
	return json.Marshal(schema)
}

// compiledPlanSchema holds the compiled schema plus the printer used to
// render violation messages.
type compiledPlanSchema struct {
	schema  *santhosh.Schema
	printer *message.Printer
}

func newCompiledPlanSchema() (*compiledPlanSchema, error) {
	raw, err := PlanSchemaJSON()
	if err != nil {
		return nil, err
	}
	doc, err := santhosh.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	compiler := santhosh.NewCompiler()
	if err := compiler.AddResource("matrix_plan_v1.json", doc); err != nil {
		return nil, err
	}
	schema, err := compiler.Compile("matrix_plan_v1.json")
	if err != nil {
		return nil, err
	}
	return &compiledPlanSchema{
		schema:  schema,
		printer: message.NewPrinter(language.English),
	}, nil
}

// checkStructural assembles the artifact document for the snapshot (no
// approval block yet) and validates it against the MatrixPlan_v1 schema in
// full: types, required fields, enum membership.
func (g *GateEngine) checkStructural(plan models.MatrixPlan) GateStatus {
	doc := models.NewArtifactDocument(plan, nil)
	reasons := g.schema.validateDocument(doc)
	return GateStatus{Passed: len(reasons) == 0, Reasons: reasons}
}

// validateDocument marshals the document and validates the result,
// returning one reason per violation.
func (c *compiledPlanSchema) validateDocument(doc *models.MatrixPlanV1) []string {
	raw, err := json.Marshal(doc)
	if err != nil {
		return []string{fmt.Sprintf("document not serializable: %v", err)}
	}
	instance, err := santhosh.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return []string{fmt.Sprintf("document not parseable: %v", err)}
	}
	err = c.schema.Validate(instance)
	if err == nil {
		return nil
	}
	var verr *santhosh.ValidationError
	if !errors.As(err, &verr) {
		return []string{err.Error()}
	}
	return c.flatten(verr)
}

// flatten walks the validation error tree and reports each leaf violation
// with its instance location, so every schema problem surfaces at once.
func (c *compiledPlanSchema) flatten(verr *santhosh.ValidationError) []string {
	if len(verr.Causes) == 0 {
		location := "/" + strings.Join(verr.InstanceLocation, "/")
		return []string{fmt.Sprintf("%s: %s", location, verr.ErrorKind.LocalizedString(c.printer))}
	}
	var out []string
	for _, cause := range verr.Causes {
		out = append(out, c.flatten(cause)...)
	}
	return out
}
