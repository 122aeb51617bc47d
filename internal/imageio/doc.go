// Package imageio defines the contract between image file plugins and their
// callers.
//
// A plugin provides an ImageOutput (writer), an ImageInput (reader) or both,
// and registers itself with Register from an init function. Callers pick a
// plugin by file name:
//
//	out, err := imageio.CreateOutput("render.tif")
//	if err != nil {
//	    return err
//	}
//	spec := imageio.NewImageSpec(640, 480, 3, typedesc.TypeFloat)
//	if err := out.Open("render.tif", spec, imageio.Create); err != nil {
//	    return err
//	}
//	if err := imageio.WriteImage(out, typedesc.TypeFloat, pixels,
//	    convert.AutoStride, convert.AutoStride, convert.AutoStride); err != nil {
//	    return err
//	}
//	return out.Close()
//
// Writers convert caller data to the file's native format through the
// convert package before handing it to the codec. OutputBase and
// BufferedOutput hold the machinery plugins share; InputBase does the same
// for readers.
//
// # Errors
//
// Every fallible call returns an error classified by the ioerr kinds. In
// addition each plugin instance keeps the last error message for GetError,
// and the package-level GetError reports registry failures.
package imageio
