package bridge

import (
	"os"

	"github.com/Carmen-Shannon/stl-thumb/common"
)

// mesaGLVersion overrides the GL version Mesa drivers report.
const mesaGLVersion = "2.1"

func applyEnvironment() {
	if err := os.Setenv("MESA_GL_VERSION_OVERRIDE", mesaGLVersion); err != nil {
		common.LogWarn("could not set MESA_GL_VERSION_OVERRIDE: %v", err)
	}
}
