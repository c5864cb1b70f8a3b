// Package templates renders the HTML fragments for the single-page circuit
// console. Components are hand-written templ.ComponentFunc values: the UI
// is a handful of forms and partials, and HTMX swaps them in place.
package templates

import (
	"context"
	"fmt"
	"io"

	"circuitdesk/internal/circuit"
	"github.com/a-h/templ"
)

// esc is shorthand for templ's HTML escaping.
func esc(s string) string { return templ.EscapeString(s) }

// Page renders the full page shell around the given body component.
// The handler chooses the body: the login form for unauthenticated
// visitors, otherwise the partial for the active view.
func Page(body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Circuit Desk</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<style>
body{font-family:system-ui,sans-serif;max-width:720px;margin:2rem auto;padding:0 1rem}
label{display:block;margin-top:.75rem;font-weight:600}
input{width:100%%;padding:.4rem;margin-top:.2rem}
.error{color:#b00020;font-size:.9rem}
.alert{border:1px solid #b00020;background:#fdecea;padding:.75rem;margin:1rem 0}
.notice{border:1px solid #1b5e20;background:#e8f5e9;padding:.75rem;margin:1rem 0}
button{margin-top:1rem;padding:.5rem 1.25rem}
dt{font-weight:600;margin-top:.5rem}
nav a{margin-right:1rem}
</style>
</head>
<body>
<h1>Circuit Desk</h1>
<nav>
<a href="/?view=search">Search</a>
<a href="/?view=register">Register</a>
</nav>
<div id="content">`); err != nil {
			return err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</div>
</body>
</html>`)
		return err
	})
}

// LoginForm renders the credential form for the session gate.
func LoginForm(errMsg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if errMsg != "" {
			if err := ErrorAlert(errMsg, "", "").Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := fmt.Fprint(w, `<form hx-post="/api/login" hx-target="#content">
<label for="username">Username</label>
<input id="username" name="username" autocomplete="username">
<label for="password">Password</label>
<input id="password" name="password" type="password" autocomplete="current-password">
<button type="submit">Log in</button>
</form>`)
		return err
	})
}

// SearchView renders the circuit lookup form. query refills the input
// after a failed search.
func SearchView(query string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<form hx-get="/api/circuits/search" hx-target="#content">
<label for="circuit_id">Circuit ID</label>
<input id="circuit_id" name="circuit_id" value="%s" placeholder="CKT-1001">
<button type="submit">Search</button>
</form>`, esc(query))
		return err
	})
}

// RecordDetails renders a record read-only with an edit affordance.
func RecordDetails(rec circuit.Record) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h2>Circuit %s</h2>
<dl>`, esc(rec.CircuitID)); err != nil {
			return err
		}
		for _, field := range circuit.AllFields {
			if _, err := fmt.Fprintf(w, `
<dt>%s</dt><dd>%s</dd>`, esc(circuit.FieldLabel(field)), esc(rec.Field(field))); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `
<dt>Last Updated</dt><dd>%s</dd>
</dl>
<button hx-get="/api/circuits/%s/edit" hx-target="#content">Edit</button>`,
			esc(rec.LastUpdated), esc(rec.CircuitID))
		return err
	})
}

// EditForm renders the editable subset of a record. The circuit ID is
// displayed but not editable; errs carries per-field messages.
func EditForm(rec circuit.Record, errs map[string]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h2>Edit circuit %s</h2>
<form hx-put="/api/circuits/%s" hx-target="#content">`,
			esc(rec.CircuitID), esc(rec.CircuitID)); err != nil {
			return err
		}
		for _, field := range circuit.EditableFields {
			if err := formField(w, field, rec.Field(field), errs[field]); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `
<button type="submit">Save</button>
<button type="button" hx-get="/api/circuits/%s" hx-target="#content">Cancel</button>
</form>`, esc(rec.CircuitID))
		return err
	})
}

// RegisterForm renders the new-circuit form. values refills the inputs
// after a failed submit; errs carries per-field messages.
func RegisterForm(values circuit.Record, errs map[string]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h2>Register circuit</h2>
<form hx-post="/api/circuits" hx-target="#content">`); err != nil {
			return err
		}
		for _, field := range circuit.AllFields {
			if err := formField(w, field, values.Field(field), errs[field]); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `
<button type="submit">Register</button>
</form>`)
		return err
	})
}

// formField writes one labeled input with its optional inline error.
func formField(w io.Writer, name, value, errMsg string) error {
	if _, err := fmt.Fprintf(w, `
<label for="%s">%s</label>
<input id="%s" name="%s" value="%s">`,
		esc(name), esc(circuit.FieldLabel(name)), esc(name), esc(name), esc(value)); err != nil {
		return err
	}
	if errMsg != "" {
		if _, err := fmt.Fprintf(w, `
<span class="error">%s</span>`, esc(errMsg)); err != nil {
			return err
		}
	}
	return nil
}

// ErrorAlert renders an error banner with optional action and support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="alert" role="alert"><strong>%s</strong>`, esc(message)); err != nil {
			return err
		}
		if action != "" {
			if _, err := fmt.Fprintf(w, ` %s.`, esc(action)); err != nil {
				return err
			}
		}
		if code != "" {
			if _, err := fmt.Fprintf(w, ` <small>(Code: %s)</small>`, esc(code)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// SuccessNotice renders a transient success banner that clears itself
// and returns the user to the search view after a fixed delay.
func SuccessNotice(message string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div class="notice" role="status">%s</div>
<div hx-get="/api/circuits/search" hx-target="#content" hx-trigger="load delay:2s"></div>`,
			esc(message)); err != nil {
			return err
		}
		return nil
	})
}
