package app

import (
	"github.com/sockmount/sockmount/modules/audit"
	"github.com/sockmount/sockmount/modules/presence"
	"github.com/sockmount/sockmount/modules/welcome"
	"github.com/sockmount/sockmount/registry"
)

// coreModules is the definitive list of all handler modules that are
// compiled into the sockmount binary.
var coreModules = []registry.Module{
	&welcome.Module{},
	&presence.Module{},
	&audit.Module{},
}
