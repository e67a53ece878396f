// Package prompts renders the prompt files a plugin ships in prompts/.
//
// Prompt files are Go text/template documents with the sprig function
// library. Variables are passed as a map and addressed as {{ .name }}.
// Referencing a variable that was not supplied is an error.
package prompts
