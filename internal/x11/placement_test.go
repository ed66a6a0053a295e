package x11

import "testing"

func indexOf(steps []applyStep, want applyStep) int {
	for i, s := range steps {
		if s == want {
			return i
		}
	}
	return -1
}

func TestApplyStepsMinimizedAppliesGeometryBeforeIconify(t *testing.T) {
	steps := applySteps(StateMinimized)

	move := indexOf(steps, stepMoveResize)
	iconify := indexOf(steps, stepIconify)
	if move == -1 || iconify == -1 {
		t.Fatalf("applySteps(StateMinimized) = %v, want both move-resize and iconify", steps)
	}
	if move > iconify {
		t.Errorf("applySteps(StateMinimized) = %v, geometry must be applied before iconifying", steps)
	}
}

func TestApplyStepsNormalEndsWithMoveResize(t *testing.T) {
	steps := applySteps(StateNormal)
	if len(steps) == 0 || steps[len(steps)-1] != stepMoveResize {
		t.Errorf("applySteps(StateNormal) = %v, want move-resize last", steps)
	}
	if indexOf(steps, stepIconify) != -1 || indexOf(steps, stepMaximize) != -1 {
		t.Errorf("applySteps(StateNormal) = %v, must not iconify or maximize", steps)
	}
}

func TestApplyStepsMaximizedSkipsGeometry(t *testing.T) {
	// The caller positions the frame with a separate normal-state apply
	// first; the maximize request itself must not carry geometry.
	steps := applySteps(StateMaximized)
	if indexOf(steps, stepMaximize) == -1 {
		t.Fatalf("applySteps(StateMaximized) = %v, want maximize", steps)
	}
	if indexOf(steps, stepMoveResize) != -1 {
		t.Errorf("applySteps(StateMaximized) = %v, must not move-resize", steps)
	}
}
