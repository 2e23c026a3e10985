package berry

import (
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lockgraph/pkg/errors"
	"github.com/matzehuels/lockgraph/pkg/lockfile"
)

type statePackage struct {
	Locations []string `yaml:"locations"`
}

// readState adds the install locations recorded by the node-modules
// linker. Projects using Plug'n'Play have no state file.
func (p *lockParser) readState(byResolution map[string]*parsedEntry) error {
	data, ok, err := lockfile.LoadOptional(p.loader, StateFileName)
	if err != nil || !ok {
		return err
	}
	var doc map[string]statePackage
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse %s", StateFileName)
	}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		if k != metadataKey {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		res := resolutionFromStateKey(k)
		e, ok := byResolution[res]
		if !ok {
			return errors.New(errors.ErrCodeInvalidLockfile, "%s: package %q is not in %s", StateFileName, res, LockfileName)
		}
		for _, loc := range doc[k].Locations {
			if err := p.install(e.id, loc); err != nil {
				return err
			}
		}
	}
	return nil
}
