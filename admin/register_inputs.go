package admin

import "go.cachewatch.io/adminapi/schemagen"

// CreateUserInput carries the fields of the createUser mutation.
type CreateUserInput struct {
	Name  string
	Email string
	Role  Role
}

// ReportInconsistencyInput carries the fields of the reportInconsistency
// mutation.
type ReportInconsistencyInput struct {
	Key    string
	Kind   InconsistencyKind
	Detail string
}

// registerCreateUserInput registers CreateUserInput and the setters that
// fill it from a request.
func registerCreateUserInput(sb *schemagen.Schema) {
	input := sb.InputObject("CreateUserInput", CreateUserInput{}, "Input for creating a new admin user.")

	input.FieldFunc("name", func(target *CreateUserInput, source string) { target.Name = source })
	input.FieldFunc("email", func(target *CreateUserInput, source string) { target.Email = source })
	input.FieldFunc("role", func(target *CreateUserInput, source Role) { target.Role = source })
}

// registerReportInconsistencyInput registers ReportInconsistencyInput.
func registerReportInconsistencyInput(sb *schemagen.Schema) {
	input := sb.InputObject("ReportInconsistencyInput", ReportInconsistencyInput{}, "Input for recording a detected cache inconsistency.")

	input.FieldFunc("key", func(target *ReportInconsistencyInput, source string) { target.Key = source })
	input.FieldFunc("kind", func(target *ReportInconsistencyInput, source InconsistencyKind) { target.Kind = source })
	input.FieldFunc("detail", func(target *ReportInconsistencyInput, source string) { target.Detail = source })
}
