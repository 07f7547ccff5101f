// Package dialog implements the questionnaire state machine that collects
// link parameters from a user. It speaks no transport protocol: callers feed
// it raw message text and render the returned prompts however they like.
package dialog
