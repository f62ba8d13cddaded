// Package desktop holds the desktop icons: the built-in defaults, the
// selection and rename state, and best-effort persistence through the REST
// service.
package desktop
