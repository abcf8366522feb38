package textbox

import (
	"github.com/gonewx/textbox/pkg/ecs"
	"github.com/gonewx/textbox/pkg/systems"
)

func systemsClear(section ecs.EntityID) systems.ClearEvent {
	return systems.ClearEvent{Section: section}
}
