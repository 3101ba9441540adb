package log

import "testing"

func TestInit(t *testing.T) {
	for _, debug := range []bool{false, true} {
		if err := Init(debug); err != nil {
			t.Fatalf("Init(%v): %v", debug, err)
		}
		if GetSugaredLogger() == nil {
			t.Fatalf("GetSugaredLogger returned nil after Init(%v)", debug)
		}
		Infof("logger ready, debug=%v", debug)
		Sync()
	}
}
