package confidence

// Merge combines a document's existing fields with a fresh analysis result.
//
// The result holds every incoming field, except that a field marked manual in
// existing is kept exactly as it is in existing, whether or not incoming carries
// it. Machine-extracted fields missing from incoming are dropped. Neither input
// is modified.
func Merge(existing, incoming FieldMap) FieldMap {
	merged := make(FieldMap, len(incoming))

	for name, f := range incoming {
		merged[name] = f
	}

	for name, f := range existing {
		if f.Manual {
			merged[name] = f
		}
	}

	return merged
}

// SetManual returns a copy of fields with the named field's manual flag set to
// manual. The second result is false when the field does not exist.
func SetManual(fields FieldMap, name string, manual bool) (FieldMap, bool) {
	f, ok := fields[name]
	if !ok {
		return fields, false
	}
	out := fields.Clone()
	f.Manual = manual
	out[name] = f
	return out, true
}
