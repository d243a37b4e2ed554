package manifest

import "fmt"

// MergeURLs merges incoming URL entries into target. Every key from incoming
// is inserted with a whole-value replace, so the imported entry wins on key
// collision. Individual URL entries are never deep-merged.
func MergeURLs(target, incoming map[string]any) {
	for key, value := range incoming {
		target[key] = deepCopy(value)
	}
}

// MergeSources merges every source kind from incoming into target using the
// generic v2 rule: a kind absent from target is copied wholesale; a kind
// present in both has its options and items merged per sub-key with the
// incoming value winning. The descriptor itself is never replaced, so fields
// from both sides survive.
func MergeSources(target, incoming map[string]any) error {
	for kind, value := range incoming {
		desc, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: source %q is not a mapping", ErrMalformedImport, kind)
		}

		existing, ok := target[kind].(map[string]any)
		if !ok {
			if _, present := target[kind]; present {
				return fmt.Errorf("%w: source %q is not a mapping", ErrMalformedManifest, kind)
			}
			// New source kind, copy everything.
			target[kind] = deepCopy(desc)
			continue
		}

		if incomingOptions, ok := desc["options"].(map[string]any); ok && len(incomingOptions) > 0 {
			options, err := enterMap(existing, "options")
			if err != nil {
				return err
			}
			for k, v := range incomingOptions {
				options[k] = deepCopy(v)
			}
		}

		items, err := enterMap(existing, "items")
		if err != nil {
			return err
		}
		if incomingItems, ok := desc["items"].(map[string]any); ok {
			for k, v := range incomingItems {
				items[k] = deepCopy(v)
			}
		}
	}

	return nil
}

// deepCopy creates a deep copy of any decoded manifest value.
func deepCopy(value any) any {
	switch v := value.(type) {
	case map[string]any:
		result := make(map[string]any, len(v))
		for k, val := range v {
			result[k] = deepCopy(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = deepCopy(val)
		}
		return result
	default:
		// Scalars are immutable, return as-is.
		return value
	}
}
