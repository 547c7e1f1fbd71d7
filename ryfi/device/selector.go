package device

/*------------------------------------------------------------------
 *
 * Purpose:	Parse `driver[:identifier]` selector strings, per §4.12.
 *
 * Description:	Direct port of the original source's device.cpp
 *		selectDevice: split on the first ':', look the driver name
 *		up in the registry, and if no identifier was given, select
 *		the first device that driver's List() reports.
 *
 *------------------------------------------------------------------*/

import (
	"fmt"
	"strings"
)

// ParseSelector splits a "driver[:identifier]" string into its parts.
// An absent identifier is returned as "".
func ParseSelector(selector string) (driverName, identifier string) {
	if i := strings.IndexByte(selector, ':'); i >= 0 {
		return selector[:i], selector[i+1:]
	}

	return selector, ""
}

// Select resolves a selector string to a driver and a concrete
// identifier, defaulting to the first device the driver lists when
// none is given.
func Select(reg *Registry, selector string) (d Driver, identifier string, err error) {
	driverName, identifier := ParseSelector(selector)

	d, ok := reg.Driver(driverName)
	if !ok {
		return nil, "", fmt.Errorf("unknown device driver: %q", driverName)
	}

	if identifier != "" {
		return d, identifier, nil
	}

	infos, err := d.List()
	if err != nil {
		return nil, "", fmt.Errorf("listing devices for driver %q: %w", driverName, err)
	}

	if len(infos) == 0 {
		return nil, "", fmt.Errorf("no devices available for driver %q", driverName)
	}

	return d, infos[0].Identifier, nil
}
