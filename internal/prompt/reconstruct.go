package prompt

// TryReconstructSchema recovers a schema from a saved prompt by parsing the
// first balanced {...} block in the text. It reports false when there is no
// such block, the block is not valid JSON, or it is an empty object.
func TryReconstructSchema(text string) (*Schema, bool) {
	block, ok := firstObjectBlock(text)
	if !ok {
		return nil, false
	}
	schema, err := ParseSchema([]byte(block))
	if err != nil || schema.Len() == 0 {
		return nil, false
	}
	return schema, true
}

// firstObjectBlock scans for the first '{' and returns the text up to its
// matching '}'. Braces inside JSON strings are ignored.
func firstObjectBlock(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]
		if start < 0 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
