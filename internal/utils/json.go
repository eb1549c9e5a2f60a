package utils

import (
	"io/fs"
	"regexp"
)

var jsonComments = regexp.MustCompile("(?s)//.*?\n|/\\*.*?\\*/")

// StripJSONComments removes C style comments, the game's string dumps carry them.
func StripJSONComments(data []byte) []byte {
	return jsonComments.ReplaceAll(data, nil)
}

func GetJsonData(fsys fs.FS, filePath string) ([]byte, error) {
	//Read raw file data
	data, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return data, err
	}

	return StripJSONComments(data), nil
}
