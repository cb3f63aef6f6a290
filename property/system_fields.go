package property

/* systemFields lists the system-managed identifiers per table.
 * Upstream calls this an allow-list, but the check is inverted:
 * an identifier found here is EXCLUDED from every form, anything
 * else is usable.
 */
var systemFields = map[TableName]map[string]struct{}{
	Contact: set(
		"lastContactedAt", "lastContactedBy", "lastReachedAt", "lastReachedBy",
		"deciderLastReachedAt", "deciderLastReachedBy",
		"createdAt", "createdBy", "updatedBy", "updatedAt", "callCount",
	),
	ContactPerson: set(
		"lastContactedAt", "lastContactedBy", "lastReachedAt", "lastReachedBy",
		"createdAt", "createdBy", "updatedAt", "updatedBy",
	),
	Deal: set(
		"lastContactedAt", "lastContactedBy", "createdAt", "lastReachedAt", "lastReachedBy",
		"deciderLastReachedAt", "deciderLastReachedBy",
		"createdBy", "updatedAt", "updatedBy", "callCount",
	),
}

func set(ids ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Usable reports whether a property may be offered as an editable field
func Usable(d Definition) bool {
	if d.PropertyIdentifier == "" {
		return false
	}
	_, system := systemFields[d.TableName][d.PropertyIdentifier]
	return !system
}

// ContactProperties keeps the usable Contact and ContactPerson properties
func ContactProperties(defs []Definition) []Definition {
	return filter(defs, func(d Definition) bool {
		return (d.TableName == Contact || d.TableName == ContactPerson) && Usable(d)
	})
}

// DealProperties keeps the usable Deal properties
func DealProperties(defs []Definition) []Definition {
	return filter(defs, func(d Definition) bool {
		return d.TableName == Deal && Usable(d)
	})
}

func filter(defs []Definition, keep func(Definition) bool) []Definition {
	out := make([]Definition, 0, len(defs))
	for _, d := range defs {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
