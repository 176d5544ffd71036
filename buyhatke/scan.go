package buyhatke

// jsScanner steps through JS literal text tracking string-quote and escape
// state, so bracket depth is only counted outside quoted runs. Seller names
// and URLs inside the literals can legally contain brackets.
type jsScanner struct {
	inStr   bool
	escaped bool
}

// structural reports whether ch sits outside any string literal and should be
// considered for bracket matching.
func (s *jsScanner) structural(ch byte) bool {
	switch {
	case s.escaped:
		s.escaped = false
	case ch == '\\' && s.inStr:
		s.escaped = true
	case ch == '"':
		s.inStr = !s.inStr
	case !s.inStr:
		return true
	}
	return false
}

// scanArrayBody returns the text between the opening '[' the caller already
// consumed (start points just past it) and its matching ']'.
func scanArrayBody(txt string, start int) (string, bool) {
	var sc jsScanner
	depth := 1
	for i := start; i < len(txt); i++ {
		ch := txt[i]
		if !sc.structural(ch) {
			continue
		}
		switch ch {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return txt[start:i], true
			}
		}
	}
	return "", false
}

// splitTopLevelObjects splits a JS array body into its top-level {...} object
// literals, leaving nested objects intact.
func splitTopLevelObjects(txt string) []string {
	var objects []string
	var sc jsScanner
	depth := 0
	start := -1
	for i := 0; i < len(txt); i++ {
		ch := txt[i]
		if !sc.structural(ch) {
			continue
		}
		switch ch {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start >= 0 {
				objects = append(objects, txt[start:i+1])
				start = -1
			}
		}
	}
	return objects
}
