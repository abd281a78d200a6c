/*
Copyright © 2025 the tropwave authors.
This file is part of tropwave.

tropwave is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

tropwave is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with tropwave.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command tropwave calculates diagnostics of tropical atmospheric waves.
package main

import (
	"fmt"
	"os"

	"github.com/spatialmodel/tropwave/tropwaveutil"
)

func main() {
	if err := tropwaveutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
