package io

import (
	"io/fs"
)

// Control image file names. The low image holds bits 0..7 of each
// control word, the high image bits 8..15.
const (
	IMAGE_LOW  = "ee0.bin"
	IMAGE_HIGH = "ee1.bin"
)

// Images is the pair of control-word images, one per physical EEPROM.
type Images struct {
	Low  []byte
	High []byte
}

// Unmarshal loads both images from a file system.
func (img *Images) Unmarshal(filesys fs.FS) (err error) {
	low, err := fs.ReadFile(filesys, IMAGE_LOW)
	if err != nil {
		err = &ErrImage{Name: IMAGE_LOW, Err: err}
		return
	}

	high, err := fs.ReadFile(filesys, IMAGE_HIGH)
	if err != nil {
		err = &ErrImage{Name: IMAGE_HIGH, Err: err}
		return
	}

	if len(low) != len(high) {
		err = &ErrImage{Name: IMAGE_HIGH, Err: ErrImageMismatch}
		return
	}

	img.Low = low
	img.High = high

	return
}

// Marshal writes both images to a file system.
func (img *Images) Marshal(filesys CreateFS) (err error) {
	if len(img.Low) != len(img.High) {
		err = &ErrImage{Name: IMAGE_HIGH, Err: ErrImageMismatch}
		return
	}

	for _, entry := range []struct {
		name string
		data []byte
	}{
		{IMAGE_LOW, img.Low},
		{IMAGE_HIGH, img.High},
	} {
		err = writeImage(filesys, entry.name, entry.data)
		if err != nil {
			err = &ErrImage{Name: entry.name, Err: err}
			return
		}
	}

	return
}

func writeImage(filesys CreateFS, name string, data []byte) (err error) {
	file, err := filesys.Create(name)
	if err != nil {
		return
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		return
	}

	err = file.Close()
	return
}
