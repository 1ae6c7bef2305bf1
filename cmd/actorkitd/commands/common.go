package commands

import (
	"encoding/json"
	"fmt"
)

// outputJSON pretty-prints v to stdout as indented JSON.
func outputJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
