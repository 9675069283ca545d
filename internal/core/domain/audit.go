package domain

// AuditRecord is implemented by every entity the audit sink can persist.
// Each entity type names its own kind and target file, so the sink dispatches
// on capability instead of inspecting runtime types.
type AuditRecord interface {
	Kind() string
	TargetFile() string
}

func (Property) Kind() string       { return "property" }
func (Property) TargetFile() string { return "properties.jsonl" }

func (RentalUnit) Kind() string       { return "rental_unit" }
func (RentalUnit) TargetFile() string { return "rental_units.jsonl" }

func (CalendarBlock) Kind() string       { return "calendar_block" }
func (CalendarBlock) TargetFile() string { return "calendar_blocks.jsonl" }
