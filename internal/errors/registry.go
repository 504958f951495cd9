package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No hotweb.json or hotweb.yaml was found in the project directory or any parent.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The configuration file could not be parsed.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "Port must be between 0 and 65535.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid container id",
		Detail:   "The mount container must be a non-empty HTML id without whitespace.",
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Unsupported config format",
		Detail:   "Config files must end in .json, .yaml or .yml.",
	},

	// ============================================
	// Render Errors (E200-E299)
	// ============================================

	"E201": {
		Category: CategoryRender,
		Message:  "Invalid selector",
		Detail:   "Selectors have the form tag.class#id[attr='value'].",
	},
	"E202": {
		Category: CategoryRender,
		Message:  "Unknown node kind",
	},

	// ============================================
	// Mount Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryMount,
		Message:  "Container already mounted",
		Detail:   "A container holds at most one mounted root.",
	},
	"E302": {
		Category: CategoryMount,
		Message:  "Empty container name",
	},
	"E303": {
		Category: CategoryMount,
		Message:  "Nil mount root",
	},
	"E304": {
		Category: CategoryMount,
		Message:  "Handle is unmounted",
		Detail:   "The handle was unmounted and can no longer render.",
	},
	"E305": {
		Category: CategoryMount,
		Message:  "Root render panicked",
	},

	// ============================================
	// Reload Errors (E400-E499)
	// ============================================

	"E401": {
		Category: CategoryReload,
		Message:  "WebSocket upgrade failed",
	},
	"E402": {
		Category: CategoryReload,
		Message:  "Watch root not found",
		Detail:   "The directory to watch does not exist.",
	},
	"E403": {
		Category: CategoryReload,
		Message:  "Watcher already running",
	},

	// ============================================
	// Publish Errors (E500-E599)
	// ============================================

	"E501": {
		Category: CategoryPublish,
		Message:  "Static export failed",
	},
	"E502": {
		Category: CategoryPublish,
		Message:  "Upload failed",
	},
	"E503": {
		Category: CategoryPublish,
		Message:  "Missing bucket",
		Detail:   "An S3 bucket name is required to publish.",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
