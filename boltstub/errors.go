/*
 * propgraph client
 *
 * Copyright 2026 propgraph Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package boltstub

import "fmt"

func errUnrecognizedCondition(c string) error {
	return fmt.Errorf("boltstub: unrecognized WHERE condition %q", c)
}

func errUnrecognizedStatement(text string) error {
	return fmt.Errorf("boltstub: unrecognized statement: %s", text)
}
