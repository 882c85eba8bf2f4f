/*
Package stickr is a layered image composition library. It flattens a captured photo,
an optional full-frame filter overlay and any number of freely placed sticker layers
into a single raster image, and derives a "censored" variant of the result with the
center of the image blurred and a watermark stamped in the corner.

The edit state and its undo/redo history live in the editor package. The package also
provides a command line interface which replays an edit script against one photo or a
whole directory of photos. To check the supported flags type:

	$ stickr --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"context"
		"fmt"

		"github.com/esimov/stickr"
	)

	func main() {
		engine := stickr.NewEngine()
		res, err := engine.Export(context.Background(), &stickr.Request{
			Base: photo,
			Layers: []stickr.Layer{
				{Image: sticker, Placement: stickr.NewPlacement(150, 150, 1.2, 0.3)},
			},
		})
		if err != nil {
			fmt.Printf("Error composing image: %s", err.Error())
			return
		}
		_ = stickr.Save("out.png", res.Clean, 0)
	}
*/
package stickr
