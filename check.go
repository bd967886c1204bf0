// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build ringqcheck

package ringq

import "fmt"

// checkEnabled is true when the ringqcheck build tag is set. Call sites
// guard with `if checkEnabled`, so the default build carries neither the
// checks nor their argument evaluation.
const checkEnabled = true

// checkf panics when cond is false. Fires only on a defect in this package
// or a violated caller contract (committing outside a reservation, a second
// producer on one ring).
func checkf(cond bool, format string, args ...any) {
	if !cond {
		panic("ringq: invariant violated: " + fmt.Sprintf(format, args...))
	}
}
