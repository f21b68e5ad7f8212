// Package scaffold generates starter projects from embedded templates. It
// powers the "skylift init" command, producing a manifest, Dockerfile, and
// .dockerignore pre-filled for the chosen service type.
package scaffold
