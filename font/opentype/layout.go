package opentype

// Feature and script tags live in the GSUB and GPOS shaping tables, which
// share the same header layout: version, then 16-bit offsets to the
// ScriptList, FeatureList and LookupList.

func parseLayout(tables map[string]reader) (features, scripts []string, err error) {
	for _, tag := range []string{"GSUB", "GPOS"} {
		table, ok := tables[tag]
		if !ok {
			continue
		}

		scriptListOffset, err := table.u16(4)
		if err != nil {
			return nil, nil, err
		}
		featureListOffset, err := table.u16(6)
		if err != nil {
			return nil, nil, err
		}

		if scriptListOffset != 0 {
			tags, err := parseTagRecordList(table, int(scriptListOffset))
			if err != nil {
				return nil, nil, err
			}
			scripts = append(scripts, tags...)
		}

		if featureListOffset != 0 {
			tags, err := parseTagRecordList(table, int(featureListOffset))
			if err != nil {
				return nil, nil, err
			}
			features = append(features, tags...)
		}
	}

	return features, scripts, nil
}

// parseTagRecordList reads a ScriptList or FeatureList: a 16-bit count
// followed by records of a 4-byte tag and a 16-bit offset.
func parseTagRecordList(r reader, offset int) ([]string, error) {
	count, err := r.u16(offset)
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, count)
	for i := 0; i < int(count); i++ {
		tag, err := r.tag(offset + 2 + i*6)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
