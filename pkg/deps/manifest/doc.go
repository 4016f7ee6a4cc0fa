// Package manifest loads dependency manifests and extracts the declared
// dependencies from them.
//
// A manifest is a package.json or bower.json document, or a YAML document
// with the same keys. It can be read from a local path or fetched from an
// http(s) URL:
//
//	m, err := manifest.Load(ctx, "package.json")
//	if err != nil {
//	    return err // MANIFEST_LOAD or INVALID_MANIFEST
//	}
//	specs := manifest.Extract(m, logger.Infof)
//
// [Extract] overlays the dependency groups in ascending precedence:
//
//  1. bundleDependencies / bundledDependencies
//  2. dependencies
//  3. devDependencies
//  4. optionalDependencies
//  5. peerDependencies
//
// A name declared in several groups keeps the range of the last one. Ranges
// that reference a URL or a git source cannot be checked against a registry
// and are pruned. A manifest without dependencies yields empty specs, which
// is not an error.
package manifest
