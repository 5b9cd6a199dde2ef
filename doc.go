// Package notecheck checks banknote images against a set of reference templates.
//
// Templates are loaded once from a directory with LoadTemplates. An input image is resized
// to each template in turn and compared by Pearson correlation of the pixel intensities;
// FindBestMatch picks the highest scoring template and Classify turns its score into a
// real/fake verdict against a threshold. Session ties the pieces together for shells that
// upload an image and then ask for a verdict.
package notecheck
