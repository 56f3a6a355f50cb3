// Package frame defines the immutable RGBD sample shared across the
// pipeline: a color image, an optional dense depth grid, and an optional
// sparse 3D point cloud, produced together as one sensor cycle.
//
// Frames are constructed once by the grabber and handed out by reference
// to every registered consumer queue. No consumer may mutate a frame it
// did not construct; retention by one consumer never blocks delivery to
// another.
package frame
