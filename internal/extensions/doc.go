// Package extensions manages the installed-extension directory for the
// quill CLI flags --list-extensions, --install-extension,
// --uninstall-extension, and --install-source.
//
// Extensions live as <id>-<version> directories under a single root, each
// carrying an extension.json manifest. Installs come from local .qext zip
// archives; development sources are symlinked as <id>-dev. A file lock on
// the root keeps concurrent launcher invocations from interleaving writes.
package extensions
