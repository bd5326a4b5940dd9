package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/ironsheep/vision-core/pixel"
)

func addStage(name string, delta uint8) StageFunc[uint8] {
	return StageFunc[uint8]{
		StageName: name,
		Fn: func(src *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			out := src.Clone()
			for i := range out.Pix {
				out.Pix[i] += delta
			}
			return out, nil
		},
	}
}

func failStage(name string, err error) StageFunc[uint8] {
	return StageFunc[uint8]{
		StageName: name,
		Fn: func(src *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
			return nil, err
		},
	}
}

func TestRun_AppliesStagesInOrder(t *testing.T) {
	var order []string
	record := func(name string) StageFunc[uint8] {
		return StageFunc[uint8]{
			StageName: name,
			Fn: func(src *pixel.Buffer[uint8]) (*pixel.Buffer[uint8], error) {
				order = append(order, name)
				return src, nil
			},
		}
	}

	src, _ := pixel.New[uint8](2, 2, pixel.Gray)
	p := New[uint8](record("first"), record("second")).Add(record("third"))
	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}
	if _, err := p.Run(src); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := strings.Join(order, ","); got != "first,second,third" {
		t.Errorf("stage order = %s", got)
	}
}

func TestRun_ThreadsBufferThrough(t *testing.T) {
	src, _ := pixel.New[uint8](2, 2, pixel.Gray)
	p := New[uint8](addStage("a", 10), addStage("b", 5))
	out, err := p.Run(src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for i, v := range out.Pix {
		if v != 15 {
			t.Errorf("Pix[%d] = %d, want 15", i, v)
		}
	}
	// The source is never written.
	if src.Pix[0] != 0 {
		t.Error("Run mutated the source buffer")
	}
}

func TestRun_WrapsStageError(t *testing.T) {
	src, _ := pixel.New[uint8](2, 2, pixel.Gray)
	p := New[uint8](addStage("warmup", 1), failStage("broken", pixel.ErrInvalidParameter))
	_, err := p.Run(src)
	if !errors.Is(err, pixel.ErrInvalidParameter) {
		t.Fatalf("err = %v, want wrapped ErrInvalidParameter", err)
	}
	if !strings.Contains(err.Error(), "stage 1 (broken)") {
		t.Errorf("error %q does not name the failing stage", err)
	}
}

func TestRun_EmptyPipelineClones(t *testing.T) {
	src, _ := pixel.New[uint8](2, 2, pixel.Gray)
	out, err := New[uint8]().Run(src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	out.Pix[0] = 9
	if src.Pix[0] != 0 {
		t.Error("empty pipeline must return an independent clone")
	}
}
