// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package main

import "github.com/Tico4Chain-Coders/Trustless-Backend/internal/cmd"

func main() {
	cmd.Execute()
}
