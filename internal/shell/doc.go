// Package shell is the dialect adapter for bash, zsh and fish.
// It knows where each shell's profile and hook script live, embeds the hook scripts
// that call `cdwe run` on directory change, and renders variable and alias directives
// in each shell's syntax.
package shell
