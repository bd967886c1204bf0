// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !ringqcheck

package ringq

// checkEnabled is false without the ringqcheck build tag; guarded check
// blocks compile away entirely.
const checkEnabled = false

func checkf(bool, string, ...any) {}
