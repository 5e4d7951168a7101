package schemagen

// Base types are shared objects that every generated schema gets
// implicitly unless the generation config suppresses them. Internal
// surfaces (like an admin schema) typically exclude them to keep their
// exposed type set exact.

var baseTypes []func(*Schema)

// RegisterBaseType adds a registration to the implicit base-type set
// applied by Generate when IncludeBaseTypes is set.
func RegisterBaseType(register func(*Schema)) {
	baseTypes = append(baseTypes, register)
}

// PageInfo is the shared pagination envelope.
type PageInfo struct {
	HasNextPage bool
	EndCursor   string
}

// ServiceInfo identifies the serving process.
type ServiceInfo struct {
	Name    string
	Version string
}

func init() {
	RegisterBaseType(func(s *Schema) {
		pageInfo := s.Object("PageInfo", PageInfo{})
		pageInfo.FieldFunc("hasNextPage", func(p *PageInfo) bool { return p.HasNextPage })
		pageInfo.FieldFunc("endCursor", func(p *PageInfo) string { return p.EndCursor })
	})
	RegisterBaseType(func(s *Schema) {
		info := s.Object("ServiceInfo", ServiceInfo{})
		info.FieldFunc("name", func(i *ServiceInfo) string { return i.Name })
		info.FieldFunc("version", func(i *ServiceInfo) string { return i.Version })
	})
}
