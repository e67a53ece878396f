// Package settings resolves per-plugin configuration records across scopes.
//
// A plugin's configuration is looked up, most specific first, at:
//
//	<projectsDir>/<project>/.a0proj/agents/<profile>/plugins/<id>/config.json
//	<projectsDir>/<project>/.a0proj/plugins/<id>/config.json
//	<profilesDir>/<profile>/plugins/<id>/config.json
//	<plugin dir>/config.json
//
// The first file that exists and parses wins in its entirety; fields are
// never merged across levels. A level whose context component (project or
// profile) is not supplied is skipped. A malformed file is reported and
// treated as absent.
package settings
