package errors

import (
	"strings"
	"unicode"
)

// DefaultMaxDocumentSize bounds request bodies and files handed to the engine.
const DefaultMaxDocumentSize = 32 << 20

// Supported document formats. "auto" sniffs the first significant byte.
var documentFormats = map[string]bool{"auto": true, "json": true, "xml": true}

// Supported output formats.
var outputFormats = map[string]bool{"json": true, "dot": true, "svg": true, "png": true, "mermaid": true}

// ValidateDocumentFormat checks an input format name (auto, json, xml).
func ValidateDocumentFormat(name string) error {
	if !documentFormats[strings.ToLower(name)] {
		return New(ErrCodeInvalidFormat, "unknown document format %q (want auto, json or xml)", name)
	}
	return nil
}

// ValidateOutputFormat checks a render output name.
func ValidateOutputFormat(name string) error {
	if !outputFormats[strings.ToLower(name)] {
		return New(ErrCodeInvalidFormat, "unknown output format %q (want json, dot, svg, png or mermaid)", name)
	}
	return nil
}

// ValidateDocumentSize rejects empty documents and documents above limit.
// A limit of zero or less uses [DefaultMaxDocumentSize].
func ValidateDocumentSize(size, limit int64) error {
	if limit <= 0 {
		limit = DefaultMaxDocumentSize
	}
	if size == 0 {
		return New(ErrCodeInvalidInput, "document is empty")
	}
	if size > limit {
		return New(ErrCodeTooLarge, "document is %d bytes (max %d)", size, limit)
	}
	return nil
}

// ValidateMaxDepth checks the recursion guard handed to the engine.
func ValidateMaxDepth(depth int) error {
	if depth < 0 {
		return New(ErrCodeInvalidOptions, "max depth cannot be negative: %d", depth)
	}
	if depth > 1<<16 {
		return New(ErrCodeInvalidOptions, "max depth too large: %d", depth)
	}
	return nil
}

// ValidatePath validates an output or input file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
