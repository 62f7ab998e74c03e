package logical

import (
	"fmt"

	"github.com/stronnag/txlogic/pkg/sources"
	"github.com/stronnag/txlogic/pkg/switches"
	"github.com/stronnag/txlogic/pkg/types"
)

func Validate(m *types.ModelData, errs *types.ConfigErrors, warns *types.Warnings) {
	if len(m.LogicalSwitches) > types.MAX_LOGICAL_SWITCH {
		errs.Add(types.ErrCount, "logicalSwitches", "%d > %d", len(m.LogicalSwitches), types.MAX_LOGICAL_SWITCH)
		return
	}
	for j := range m.LogicalSwitches {
		ls := &m.LogicalSwitches[j]
		where := fmt.Sprintf("logicalSwitches[%d]", j)
		if ls.Func >= types.LS_FN_MAX {
			errs.Add(types.ErrValue, where+".func", "%d", ls.Func)
			continue
		}
		switch ls.Func.Family() {
		case types.LS_FAMILY_OFF:
			continue
		case types.LS_FAMILY_VOFS:
			sources.Validate(ls.Src1, m, where+".src1", errs)
		case types.LS_FAMILY_VCOMP:
			sources.Validate(ls.Src1, m, where+".src1", errs)
			sources.Validate(ls.Src2, m, where+".src2", errs)
		case types.LS_FAMILY_VBOOL, types.LS_FAMILY_STICKY:
			switches.Validate(ls.Sw1, m, where+".sw1", errs)
			switches.Validate(ls.Sw2, m, where+".sw2", errs)
		case types.LS_FAMILY_EDGE:
			switches.Validate(ls.Sw1, m, where+".sw1", errs)
			if ls.Val < 0 || ls.Val2 < types.EDGE_INSTANT {
				errs.Add(types.ErrValue, where, "edge times %d,%d", ls.Val, ls.Val2)
			}
		case types.LS_FAMILY_TIMER:
			if ls.Val < 0 || ls.Val2 < 0 {
				errs.Add(types.ErrValue, where, "timer times %d,%d", ls.Val, ls.Val2)
			}
		}
		switches.Validate(ls.AndSwitch, m, where+".andsw", errs)
		if ls.Duration < 0 || ls.Delay < 0 {
			errs.Add(types.ErrValue, where, "duration %d delay %d", ls.Duration, ls.Delay)
		}
	}
	for _, j := range Cycles(m.LogicalSwitches) {
		warns.Add(fmt.Sprintf("logicalSwitches[%d]", j), "L%d is part of a reference cycle", j+1)
	}
}

// refs lists the logical switches a slot reads.
func refs(ls *types.LogicalSwitchData, n int) []int {
	var r []int
	add := func(idx int) {
		if idx >= 0 && idx < n {
			r = append(r, idx)
		}
	}
	for _, sw := range []types.RawSwitch{ls.Sw1, ls.Sw2, ls.AndSwitch} {
		if sw.Kind == types.SWITCH_LOGICAL {
			add(sw.Index)
		}
	}
	for _, src := range []types.RawSource{ls.Src1, ls.Src2} {
		if src.Kind == types.SOURCE_LS {
			add(src.Index)
		}
	}
	return r
}

// Cycles returns the slots that take part in a reference cycle. Evaluation
// is a single ordered pass, so a cycle never recurses; it only means some
// slot in it sees a value one frame old.
func Cycles(lsw []types.LogicalSwitchData) []int {
	n := len(lsw)
	const (
		white = iota
		grey
		black
	)
	colour := make([]int, n)
	incycle := make([]bool, n)
	stack := []int{}

	var visit func(int)
	visit = func(j int) {
		colour[j] = grey
		stack = append(stack, j)
		for _, k := range refs(&lsw[j], n) {
			switch colour[k] {
			case white:
				visit(k)
			case grey:
				for i := len(stack) - 1; i >= 0; i-- {
					incycle[stack[i]] = true
					if stack[i] == k {
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		colour[j] = black
	}
	for j := 0; j < n; j++ {
		if colour[j] == white && lsw[j].Func != types.LS_FN_OFF {
			visit(j)
		}
	}
	var res []int
	for j, c := range incycle {
		if c {
			res = append(res, j)
		}
	}
	return res
}
